package curriculum

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/truongductri01/daily-spark/core"
)

var (
	curriculumStatusTag  = "curriculumstatus"
	curriculumStatusText = fmt.Sprintf("invalid status, expected one of %v", Statuses)

	topicStatusTag  = "topicstatus"
	topicStatusText = fmt.Sprintf("invalid status, expected one of %v", TopicStatuses)
)

// InitValidators registers the curriculum validators. core.InitValidators must be called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(curriculumStatusTag, func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, curriculumStatusTag, curriculumStatusText)

	_ = validate.RegisterValidation(topicStatusTag, func(fl validator.FieldLevel) bool {
		return TopicStatus(fl.Field().String()).IsValid()
	})
	core.RegisterCustomTranslation(validate, translator, topicStatusTag, topicStatusText)
}

package blogservice

import (
	"github.com/sushihentaime/writeflow/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(common.NotBlank(title), "title", "must be provided")
	v.Check(v.CheckStringLength(title, 0, 200), "title", "must not be more than 200 characters long")
}

func validateContent(v *common.Validator, content string) {
	v.Check(common.NotBlank(content), "content", "must be provided")
}

func validateStatus(v *common.Validator, status Status) {
	v.Check(common.PermittedValue(status, StatusDraft, StatusPublished, StatusArchived), "status", "must be one of draft, published or archived")
}

func validateSlug(v *common.Validator, slug string) {
	v.Check(slug != "", "slug", "must contain at least one letter or number")
}

func validateOptionalURL(v *common.Validator, s *string, field string) {
	if s != nil && *s != "" {
		v.Check(common.ValidURL(*s), field, "must be a valid URL")
	}
}

func validateTagIDs(v *common.Validator, ids []int) {
	for _, id := range ids {
		if id < 1 {
			v.AddError("tag_ids", "must only contain positive ids")
			return
		}
	}
}

func validateName(v *common.Validator, name string) {
	v.Check(common.NotBlank(name), "name", "must be provided")
	v.Check(v.CheckStringLength(name, 0, 100), "name", "must not be more than 100 characters long")
}

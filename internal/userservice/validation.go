package userservice

import (
	"github.com/sushihentaime/writeflow/internal/common"
)

func validateName(v *common.Validator, name string) {
	v.Check(common.NotBlank(name), "name", "must be provided")
	v.Check(v.CheckStringLength(name, 0, 100), "name", "must not be more than 100 characters long")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(v.CheckStringLength(password, 6, 72), "password", "must be between 6 and 72 characters long")
}

func validateRole(v *common.Validator, role Role) {
	v.Check(common.PermittedValue(role, RoleAdmin, RoleAuthor, RoleReader), "role", "must be one of admin, author or reader")
}

func validateOTPCode(v *common.Validator, code string) {
	v.Check(code != "", "code", "must be provided")
	v.Check(OTPRX.MatchString(code), "code", "must be a 6 digit code")
}

func validateSocialLinks(v *common.Validator, links map[string]string) {
	for name, link := range links {
		if link == "" {
			continue
		}
		v.Check(common.ValidURL(link), "social_links", "must contain valid http or https URLs, "+name+" is not")
	}
}

func validateProfile(v *common.Validator, req *UpdateProfileRequest) {
	if req.Name != nil {
		validateName(v, *req.Name)
	}

	if req.Bio != nil {
		v.Check(v.CheckStringLength(*req.Bio, 0, 1000), "bio", "must not be more than 1000 characters long")
	}

	if req.ProfilePicture != nil && *req.ProfilePicture != "" {
		v.Check(common.ValidURL(*req.ProfilePicture), "profile_picture", "must be a valid URL")
	}

	validateSocialLinks(v, req.SocialLinks)
}

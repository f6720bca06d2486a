package userservice

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasRole reports whether the user holds one of roles.
func (u *User) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}

	return false
}

// CanModify reports whether the user may change a resource owned by ownerID.
func (u *User) CanModify(ownerID int) bool {
	return u.ID == ownerID || u.IsAdmin()
}

func (u *User) publicProfile() *PublicProfile {
	return &PublicProfile{
		ID:             u.ID,
		Name:           u.Name,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		SocialLinks:    u.SocialLinks,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}

package models

// Role values recognized by the association. Everything outside this set is
// rejected at the promotion boundary.
const (
	RoleMember               = "member"
	RoleSecretary            = "secretary"
	RoleTreasurer            = "treasurer"
	RoleChairperson          = "chairperson"
	RoleSupervisoryCommittee = "supervisorycommittee"
	RoleCommitteeMember      = "committeemember"
)

// AdminRoles is the closed set of roles a chairperson may promote a member to.
var AdminRoles = []string{
	RoleMember,
	RoleSecretary,
	RoleTreasurer,
	RoleChairperson,
	RoleSupervisoryCommittee,
	RoleCommitteeMember,
}

func IsValidRole(role string) bool {
	for _, r := range AdminRoles {
		if r == role {
			return true
		}
	}
	return false
}

type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	HashedPin string `json:"hashedPin,omitempty"`
	Role      string `json:"role"`
}

// Public strips the PIN digest for list and login responses.
func (m Member) Public() Member {
	m.HashedPin = ""
	return m
}

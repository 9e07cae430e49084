package domain

type Role string

const (
	// User has an account but no marketplace profile yet.
	RoleUser Role = "user"
	// Founder lists startups once verified.
	RoleFounder Role = "founder"
	// Investor expresses interest in startups once verified.
	RoleInvestor Role = "investor"
	// Admin reviews verification requests and manages users.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleUser, RoleFounder, RoleInvestor, RoleAdmin:
		return true
	}
	return false
}

// IsSelfAssignable reports whether a role may be chosen at registration.
func IsSelfAssignable(r string) bool {
	switch Role(r) {
	case RoleUser, RoleFounder, RoleInvestor:
		return true
	}
	return false
}

// RequiresVerification reports whether the role goes through document verification.
func RequiresVerification(r string) bool {
	return r == string(RoleFounder) || r == string(RoleInvestor)
}

// RoleSet is an explicit allow-list. Admin is never implied.
type RoleSet map[Role]struct{}

func Roles(rs ...Role) RoleSet {
	s := make(RoleSet, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

func (s RoleSet) Has(r string) bool {
	_, ok := s[Role(r)]
	return ok
}

// String renders the set in declaration-independent, sorted order.
func (s RoleSet) String() string {
	order := []Role{RoleUser, RoleFounder, RoleInvestor, RoleAdmin}
	out := ""
	for _, r := range order {
		if _, ok := s[r]; !ok {
			continue
		}
		if out != "" {
			out += ","
		}
		out += string(r)
	}
	return out
}

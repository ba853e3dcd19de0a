package auth

import "github.com/okian/recruitportal/internal/domain/model"

// Intent is the client-side role and mode selection. It is a UI hint only:
// once credentials are verified the server's role wins.
type Intent struct {
	IntendedRole model.Role
	Mode         model.AuthMode
	LoginRole    model.Role
	SignupRole   model.Role
}

func newIntent() Intent {
	return Intent{
		IntendedRole: model.RoleCandidate,
		Mode:         model.ModeLogin,
		LoginRole:    model.RoleCandidate,
		SignupRole:   model.RoleCandidate,
	}
}

// PanelRole returns the role chip selected in the given panel.
func (i Intent) PanelRole(panel model.AuthMode) model.Role {
	if panel == model.ModeSignup {
		return i.SignupRole
	}
	return i.LoginRole
}

func (i *Intent) setPanelRole(panel model.AuthMode, r model.Role) {
	if panel == model.ModeSignup {
		i.SignupRole = r
		return
	}
	i.LoginRole = r
}

// loginRole is the role sent from the login panel, falling back to the intended role.
func (i Intent) loginRole() model.Role {
	if i.LoginRole != "" {
		return i.LoginRole
	}
	return model.RoleOrDefault(i.IntendedRole)
}

package validate

import (
	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

// UserRegister validates a registration body. The role is always user;
// only an admin can change it afterwards.
func UserRegister(body map[string]any) (*domain.User, error) {
	name, ok := userName(body["name"])
	if !ok {
		return nil, domain.Invalid("Valid User Name Is Required!")
	}
	mail, ok := email(body["email"])
	if !ok {
		return nil, domain.Invalid("Valid Email Address Is Required!")
	}
	pass, ok := password(body["password"])
	if !ok {
		return nil, domain.Invalid("Valid Password Is Required!")
	}
	phone, ok := phoneNumber(body["phone_number"])
	if !ok {
		return nil, domain.Invalid("Valid Phone Number Is Required!")
	}

	return &domain.User{
		Name:        name,
		Email:       mail,
		Password:    pass,
		PhoneNumber: phone,
		Role:        domain.RoleUser,
	}, nil
}

func UserLogin(body map[string]any) (*domain.Credentials, error) {
	method, _ := body["loginMethod"].(string)
	creds := &domain.Credentials{Method: domain.LoginMethod(method)}

	switch creds.Method {
	case domain.LoginByEmail:
		if !truthy(body["email"]) {
			return nil, domain.Invalid("Email is required for email login!")
		}
		mail, ok := email(body["email"])
		if !ok {
			return nil, domain.Invalid("Please Provide a Valid Email Address!")
		}
		creds.Identifier = mail
	case domain.LoginByPhone:
		if !truthy(body["phone_number"]) {
			return nil, domain.Invalid("Phone number is required for phone login!")
		}
		phone, ok := phoneNumber(body["phone_number"])
		if !ok {
			return nil, domain.Invalid("Please Provide a Valid Phone Number!")
		}
		creds.Identifier = phone
	default:
		return nil, domain.Invalid("Invalid Login Method!")
	}

	if !truthy(body["password"]) {
		return nil, domain.Invalid("Password is required!")
	}
	pass, ok := password(body["password"])
	if !ok {
		return nil, domain.Invalid("Please Provide a Valid Password!")
	}
	creds.Password = pass

	return creds, nil
}

// UserPatch validates a partial profile update made by a caller with the
// given role. The password condition carries the plaintext value.
func UserPatch(body map[string]any, caller domain.Role) ([]query.Condition, error) {
	var conds []query.Condition

	fields := []struct {
		key   string
		check func(any) (string, bool)
		msg   string
	}{
		{"name", userName, "Please Provide a Valid User Name!"},
		{"email", email, "Please Provide a Valid Email Address!"},
		{"password", password, "Please Provide a Valid Password!"},
		{"phone_number", phoneNumber, "Please Provide a Valid Phone Number!"},
	}
	for _, f := range fields {
		raw, present := body[f.key]
		if !present {
			continue
		}
		v, ok := f.check(raw)
		if !ok {
			return nil, domain.Invalid(f.msg)
		}
		conds = append(conds, query.Eq(f.key, v))
	}

	if raw, present := body["role"]; present {
		if caller != domain.RoleAdmin {
			return nil, domain.Forbidden("Forbidden: Only admins can update role!")
		}
		s, _ := raw.(string)
		if role := domain.Role(s); !role.Valid() {
			return nil, domain.Invalid("Please Provide a Valid Role!")
		}
		conds = append(conds, query.Eq("role", s))
	}

	if len(conds) == 0 {
		return nil, domain.Invalid("No Valid Field Provided For Update!")
	}
	return conds, nil
}

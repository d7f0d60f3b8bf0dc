package user

import (
	"errors"
	"time"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound             = errors.New("user not found")
	ErrEmailExists          = errors.New("a user with this email already exists")
	ErrInvalidRole          = errors.New("invalid role")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateUser(user User) (User, error)
		GetUserByEmail(email string) (User, error)
	}

	// Service produces the fully-formed User records handed to the session on signup and login.
	// Accounts live for the lifetime of the process.
	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Signup validates nu and creates the matching User.
func (svc *Service) Signup(nu NewUser) (User, error) {
	if err := nu.Validate(svc); err != nil {
		return User{}, err
	}
	usr := User{
		ID:            core.NewID(),
		Name:          nu.Name,
		Email:         nu.Email,
		Role:          nu.Role,
		JoinedAt:      time.Now().UTC(),
		Department:    nu.Department,
		EmployeeID:    nu.EmployeeID,
		StudentCourse: nu.StudentCourse,
		StudentYear:   nu.StudentYear,
		StudentID:     nu.StudentID,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

// Authenticate returns the User matching creds.
// Unknown emails and wrong passwords both yield ErrAuthenticationFailed.
func (svc *Service) Authenticate(creds Credentials) (User, error) {
	if err := creds.Validate(); err != nil {
		return User{}, err
	}
	usr, err := svc.repo.GetUserByEmail(creds.Email)
	if err != nil {
		if err == ErrNotFound {
			return User{}, ErrAuthenticationFailed
		}
		return User{}, err
	}
	if err := usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrAuthenticationFailed
	}
	return usr, nil
}

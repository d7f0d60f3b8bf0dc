package user

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

// Role is the closed set of dashboard roles.
type Role string

// Roles
const (
	RoleEducator Role = "EDUCATOR"
	RoleStudent  Role = "STUDENT"
	RoleAdmin    Role = "ADMIN"
)

// Roles are offered on the welcome screen, in this order.
var Roles = []RoleInfo{
	{Name: "Student", Value: RoleStudent},
	{Name: "Educator", Value: RoleEducator},
	{Name: "Admin", Value: RoleAdmin},
}

type RoleInfo struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

func (r Role) IsValid() bool {
	switch r {
	case RoleEducator, RoleStudent, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(core.CleanString(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Role         Role      `json:"role"`
	JoinedAt     time.Time `json:"joined_at"` // UTC

	// Educators
	Department string `json:"department,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`

	// Students
	StudentCourse string `json:"student_course,omitempty"`
	StudentYear   string `json:"student_year,omitempty"`
	StudentID     string `json:"student_id,omitempty"`
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to sign up a new User.
type NewUser struct {
	Name            string `json:"name" validate:"notblank"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            Role   `json:"role" validate:"role"`

	Department    string `json:"department"`
	EmployeeID    string `json:"employee_id"`
	StudentCourse string `json:"student_course"`
	StudentYear   string `json:"student_year"`
	StudentID     string `json:"student_id"`
}

func (nu *NewUser) Validate(svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = Role(strings.ToUpper(core.CleanString(string(nu.Role))))
	nu.Department = core.CleanString(nu.Department)
	nu.EmployeeID = core.CleanString(nu.EmployeeID)
	nu.StudentCourse = core.CleanString(nu.StudentCourse)
	nu.StudentYear = core.CleanString(nu.StudentYear)
	nu.StudentID = core.CleanString(nu.StudentID)

	if err := core.CheckStruct(nu, "invalid signup"); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email)
}

// Credentials are submitted on the login screen.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return core.CheckStruct(c, "invalid credentials")
}

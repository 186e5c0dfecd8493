package enroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleStudent is the default role for lazily provisioned users
	RoleStudent UserRole = "student"
	// RoleTeacher is a staff role
	RoleTeacher UserRole = "teacher"
	// RoleAdmin is an administrative role
	RoleAdmin UserRole = "admin"
)

// User is the identity record. Users are created either explicitly through
// registration (with a password hash) or lazily on first signup with an
// unknown email (without one, so password login stays disabled).
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Name           string     `bun:"name" json:"name,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"password_hash,omitempty"`
	Role           UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`

	Registrations []*Registration `bun:"rel:has-many,join:id=user_id" json:"registrations,omitempty"`
}

// CanLogin reports whether password login is possible for this user.
// Lazily created users carry no hash until they register.
func (u *User) CanLogin() bool {
	return u != nil && u.PasswordHash != ""
}

// Activity is an enrollable offering with a fixed seat capacity.
type Activity struct {
	bun.BaseModel   `bun:"table:activities,alias:act"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name            string     `bun:"name,notnull,unique" json:"name,omitempty"`
	Description     string     `bun:"description" json:"description,omitempty"`
	Schedule        string     `bun:"schedule" json:"schedule,omitempty"`
	MaxParticipants int        `bun:"max_participants,notnull,default:20" json:"max_participants,omitempty"`
	Published       bool       `bun:"is_published,notnull,default:true" json:"is_published,omitempty"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	Registrations []*Registration `bun:"rel:has-many,join:id=activity_id" json:"registrations,omitempty"`
}

// DefaultMaxParticipants is used when an activity is created without an
// explicit capacity.
const DefaultMaxParticipants = 20

// Registration links one User to one Activity. At most one row exists per
// (user, activity) pair; the commands enforce it and the unique constraint
// backs them under concurrency.
type Registration struct {
	bun.BaseModel `bun:"table:registrations,alias:reg"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	ActivityID    uuid.UUID  `bun:"activity_id,notnull,type:uuid" json:"activity_id,omitempty"`
	Attended      bool       `bun:"attended,notnull,default:false" json:"attended,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	User     *User     `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Activity *Activity `bun:"rel:belongs-to,join:activity_id=id" json:"activity,omitempty"`
}

// ActivityRoster is the read model for the activities listing: one activity
// plus the participant emails in registration insertion order.
type ActivityRoster struct {
	Activity     *Activity `json:"activity"`
	Participants []string  `json:"participants"`
}

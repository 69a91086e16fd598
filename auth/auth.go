package auth

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"quizGo/config"
	"quizGo/models"
	"quizGo/store"
	"quizGo/utils"
)

// Manager owns account registration, authentication and the session lifecycle.
type Manager struct {
	store    *store.Store
	validate *validator.Validate
	log      *logrus.Entry
}

// NewManager creates a manager over the given store.
func NewManager(st *store.Store, log *logrus.Entry) *Manager {
	return &Manager{
		store:    st,
		validate: newValidator(),
		log:      log,
	}
}

// Authenticate matches a user by exact email or username and plaintext
// password. Email and username are unique, so the first match is the only one.
func (m *Manager) Authenticate(identifier, password string) (*models.User, bool) {
	for _, u := range m.store.Users() {
		if (u.Email == identifier || u.Username == identifier) && u.Password == password {
			return &u, true
		}
	}
	return nil, false
}

// Register validates the registration input against every rule and, on
// success, persists and returns the new user. On failure the returned error is
// a *ValidationError listing all violated rules.
func (m *Manager) Register(input RegistrationInput) (*models.User, error) {
	fieldMsgs := map[string]string{}
	if err := m.validate.Struct(input); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			if _, seen := fieldMsgs[fe.StructField()]; !seen {
				fieldMsgs[fe.StructField()] = registrationMessage(fe.StructField(), fe.Tag())
			}
		}
	}

	users := m.store.Users()
	if fieldMsgs["Email"] == "" && emailTaken(users, input.Email) {
		fieldMsgs["Email"] = "This email is already registered"
	}
	if fieldMsgs["Username"] == "" && usernameTaken(users, input.Username) {
		fieldMsgs["Username"] = "This username is already taken"
	}

	var msgs []string
	if msg := fieldMsgs["Email"]; msg != "" {
		msgs = append(msgs, msg)
	}
	if msg := fieldMsgs["Username"]; msg != "" {
		msgs = append(msgs, msg)
	}
	if msg := fieldMsgs["Password"]; msg != "" {
		msgs = append(msgs, msg)
	} else {
		msgs = append(msgs, passwordRuleErrors(input.Password)...)
	}
	if msg := fieldMsgs["ConfirmPassword"]; msg != "" {
		msgs = append(msgs, msg)
	}

	if len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	user := models.User{
		ID:           utils.GenerateID(),
		Email:        input.Email,
		Username:     input.Username,
		Password:     input.Password,
		IsAdmin:      false,
		RegisteredAt: time.Now(),
	}
	m.store.SaveUser(user)
	m.log.WithField("user_id", user.ID).Info("user registered")
	return &user, nil
}

// EnsureAdminSeed creates the fixed-credential admin account if no admin
// exists yet. Safe to call on every start.
func (m *Manager) EnsureAdminSeed() {
	for _, u := range m.store.Users() {
		if u.IsAdmin {
			return
		}
	}
	admin := models.User{
		ID:           utils.GenerateID(),
		Email:        config.AdminEmail,
		Username:     config.AdminUsername,
		Password:     config.AdminPassword,
		IsAdmin:      true,
		RegisteredAt: time.Now(),
	}
	m.store.SaveUser(admin)
	m.log.WithField("user_id", admin.ID).Info("seeded admin user")
}

// UpdateLastLogin stamps the user's last successful authentication.
func (m *Manager) UpdateLastLogin(userID string) {
	users := m.store.Users()
	u, ok := users[userID]
	if !ok {
		return
	}
	u.LastLogin = time.Now()
	m.store.SaveUser(u)
}

// StartSession writes an active session for the user, replacing any prior one.
func (m *Manager) StartSession(userID string) {
	m.store.SaveSession(models.UserSession{
		UserID:    userID,
		LoginTime: time.Now(),
		IsActive:  true,
	})
}

// DeactivateSession flips the session inactive and leaves the forced-logout
// notice for the affected user's context to discover. The record is kept so
// the poller can observe the deactivation before it disappears.
func (m *Manager) DeactivateSession(userID string) {
	// The notice goes in first so a watcher reacting to the session write
	// already finds it.
	m.store.SetForcedLogoutNotice(models.ForcedLogoutNotice{
		UserID: userID,
		At:     time.Now(),
	})
	sessions := m.store.Sessions()
	if s, ok := sessions[userID]; ok {
		s.IsActive = false
		m.store.SaveSession(s)
	}
	m.log.WithField("user_id", userID).Info("session deactivated")
}

// EndSession deletes the session record entirely. This is the voluntary
// logout path.
func (m *Manager) EndSession(userID string) {
	m.store.DeleteSession(userID)
}

func emailTaken(users map[string]models.User, email string) bool {
	for _, u := range users {
		if u.Email == email {
			return true
		}
	}
	return false
}

func usernameTaken(users map[string]models.User, username string) bool {
	for _, u := range users {
		if u.Username == username {
			return true
		}
	}
	return false
}

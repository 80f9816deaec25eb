package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys used by handlers and middleware.
const (
	KeyUserID         = "user_id"
	KeyAdminLoginTime = "admin_login_time"
	KeyFlashSuccess   = "flash_success"
	KeyFlashError     = "flash_error"
)

// AdminWindow is how long an admin login stays valid. A session older
// than this keeps the member signed in but loses admin access until
// re-authentication.
const AdminWindow = 24 * time.Hour

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 30 * 24 * time.Hour
	sm.IdleTimeout = 7 * 24 * time.Hour
	sm.Cookie.Name = "dh_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

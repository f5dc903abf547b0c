package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultDatabaseName   = "esg_dashboard"
	DefaultCollectionName = "users"
	DefaultUsername       = "admin"
	DefaultConnectTimeout = 5 * time.Second
	DefaultBcryptCost     = 12

	MinPasswordLength = 6
	MaxPasswordLength = 72 // bcrypt ignores everything past 72 bytes
)

var ErrInvalidConfig = errors.New("invalid configuration")

var supportedSchemes = []string{"mongodb://", "mongodb+srv://"}

// placeholderMarkers are fragments left over from copy/paste templates.
var placeholderMarkers = []string{"...", "<password>", "<username>", "<user>", "<cluster>", "<db_password>", "REPLACE"}

type Config struct {
	DatabaseURL        string
	DatabaseName       string
	CollectionUserName string
	Username           string
	NewPassword        string
	ConnectTimeout     time.Duration
	BcryptCost         int
}

// Validate checks every required input before anything touches the network.
func (c *Config) Validate() error {
	if err := ValidateDatabaseURL(c.DatabaseURL); err != nil {
		return err
	}
	if strings.TrimSpace(c.Username) == "" {
		return invalid("target username is required (RESET_USERNAME or -username)")
	}
	if c.NewPassword == "" {
		return invalid("new password is required (NEW_PASSWORD or interactive prompt)")
	}
	if len(c.NewPassword) < MinPasswordLength {
		return invalid("new password too short (min %d)", MinPasswordLength)
	}
	if len(c.NewPassword) > MaxPasswordLength {
		return invalid("new password too long (max %d bytes)", MaxPasswordLength)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return invalid("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.ConnectTimeout <= 0 {
		return invalid("connect timeout must be positive, got %s", c.ConnectTimeout)
	}
	return nil
}

// ValidateDatabaseURL rejects empty, unsupported and placeholder connection strings.
func ValidateDatabaseURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return invalid("database URL is required (MONGODB_URL or -url)")
	}
	supported := false
	for _, scheme := range supportedSchemes {
		if strings.HasPrefix(url, scheme) {
			supported = true
			break
		}
	}
	if !supported {
		return invalid("database URL must start with %s", strings.Join(supportedSchemes, " or "))
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(url, marker) {
			return invalid("database URL still contains placeholder text %q; paste the real connection string", marker)
		}
	}
	return nil
}

// GetDatabaseName returns the explicit database name, or the one named in the
// connection string path, or DefaultDatabaseName.
func (c *Config) GetDatabaseName() string {
	if c.DatabaseName != "" {
		return c.DatabaseName
	}
	if name := DatabaseNameFromURL(c.DatabaseURL); name != "" {
		return name
	}
	return DefaultDatabaseName
}

func (c *Config) GetCollectionName() string {
	if c.CollectionUserName != "" {
		return c.CollectionUserName
	}
	return DefaultCollectionName
}

// DatabaseNameFromURL extracts the path segment between the host list and the
// query string. It does not resolve SRV records.
func DatabaseNameFromURL(url string) string {
	rest := url
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}
	if i := strings.IndexAny(rest, "?"); i >= 0 {
		rest = rest[:i]
	}
	i := strings.Index(rest, "/")
	if i < 0 {
		return ""
	}
	return strings.Trim(rest[i+1:], "/")
}

// Redacted returns the connection string with the password masked. Only the
// authority (between "://" and the first "/" or "?") is searched for
// credentials, so an "@" in the options cannot expose the password.
func (c *Config) Redacted() string {
	url := c.DatabaseURL
	schemeEnd := strings.Index(url, "://")
	if schemeEnd < 0 {
		return url
	}
	hostStart := schemeEnd + 3
	rest := url[hostStart:]

	beforeQuery := rest
	if q := strings.Index(rest, "?"); q >= 0 {
		beforeQuery = rest[:q]
	}
	authority := beforeQuery
	if slash := strings.Index(authority, "/"); slash >= 0 {
		authority = authority[:slash]
	}

	at := strings.LastIndex(authority, "@")
	if at < 0 {
		// An unescaped "/" in the password pushes the "@" into the path.
		if at = strings.LastIndex(beforeQuery, "@"); at < 0 {
			return url
		}
		return url[:hostStart] + "****" + rest[at:]
	}

	userinfo := authority[:at]
	colon := strings.Index(userinfo, ":")
	if colon < 0 {
		return url
	}
	return url[:hostStart] + userinfo[:colon] + ":****" + rest[at:]
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

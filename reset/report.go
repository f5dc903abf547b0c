package reset

import (
	"fmt"
	"io"

	"admin-password-reset/authentication"
	"admin-password-reset/users"
)

const hashPreviewLength = 50

// Reporter writes operator-facing progress lines. The output is meant for a
// human at a terminal, not for parsing.
type Reporter struct {
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Reporter) Connecting(target string) {
	r.printf("🔗 Connecting to %s ...", target)
}

func (r *Reporter) Connected(database, collection string) {
	r.printf("✅ Connected to MongoDB")
	r.printf("📊 Using database: %s (collection %s)", database, collection)
}

func (r *Reporter) UserNotFound(username string, available []users.User) {
	r.printf("❌ User '%s' not found!", username)
	r.printf("")
	if len(available) == 0 {
		r.printf("No users exist in this collection.")
		return
	}
	r.printf("Available users:")
	for _, u := range available {
		r.printf("  - %s (%s)", u.Username, u.Role)
	}
}

func (r *Reporter) FoundUser(user users.User, info authentication.HashInfo, needsRehash bool) {
	r.printf("")
	r.printf("🔍 Found user: %s", user.Username)
	if user.ID != "" {
		r.printf("   ID: %s", user.ID)
	}
	r.printf("   Email: %s", user.Email)
	r.printf("   Role: %s", user.Role)
	r.printf("   Current password hash: %s", Preview(user.HashedPassword))
	if info.Known {
		r.printf("   Hash scheme: %s %s cost %d", info.Scheme, info.Identifier, info.Cost)
	} else {
		r.printf("   Hash scheme: %s", info.Scheme)
	}
	if needsRehash {
		r.printf("   Current hash is outdated or unrecognised; it will be replaced.")
	}
}

func (r *Reporter) AboutToUpdate(username string) {
	r.printf("")
	r.printf("⚠️  About to update password for '%s'", username)
}

func (r *Reporter) Cancelled() {
	r.printf("❌ Update cancelled")
}

func (r *Reporter) Updated(newHash string) {
	r.printf("")
	r.printf("✅ SUCCESS: Password updated!")
	r.printf("   New hash: %s", Preview(newHash))
}

func (r *Reporter) NoChanges(matched int64) {
	if matched == 0 {
		r.printf("⚠️  No changes made: the user disappeared before the update")
		return
	}
	r.printf("⚠️  No changes made")
}

func (r *Reporter) Verified() {
	r.printf("✅ Hash verification passed!")
}

func (r *Reporter) VerificationFailed() {
	r.printf("❌ Hash verification failed (unexpected); check the record manually")
}

// Failure prints err, followed by the common causes when showHints is set.
// Not-found, cancellation, no-change and verification outcomes have already
// been reported by the flow.
func (r *Reporter) Failure(err error, showHints bool) {
	if isReportedOutcome(err) {
		return
	}
	r.printf("")
	r.printf("❌ ERROR: %v", err)
	if !showHints {
		return
	}
	r.printf("")
	r.printf("Common issues:")
	r.printf("1. Wrong MONGODB_URL - copy it from the deployment's environment settings")
	r.printf("2. Network blocked - make sure this machine can reach the MongoDB cluster")
	r.printf("3. IP not allow-listed - check the cluster's network access list")
}

// Preview truncates hash for display.
func Preview(hash string) string {
	if hash == "" {
		return "EMPTY"
	}
	if len(hash) <= hashPreviewLength {
		return hash
	}
	return hash[:hashPreviewLength] + "..."
}

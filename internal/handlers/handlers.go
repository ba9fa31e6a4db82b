package handlers

import (
	"os"

	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/mailer"
	"github.com/taskhive-dev/taskhive/internal/membership"
	"github.com/taskhive-dev/taskhive/internal/project"
)

var (
	projects  *project.Manager
	directory *membership.Directory
	mail      *mailer.Mailer
)

// Init wires the handler package to the connected database. Must run after
// db.ConnectDatabase and godotenv.Load so env-backed settings are in place.
func Init() {
	projects = project.NewManager(db.DB)
	directory = projects.Directory()
	mail = mailer.NewFromEnv()
	Domain = os.Getenv("DOMAIN")
}

func mailerLink(fullName, link string) mailer.LinkData {
	return mailer.LinkData{FullName: fullName, Link: link}
}

package constants

const (
	ROLE_ADMIN     = "ADMIN"
	ROLE_ORGANIZER = "ORGANIZER"
	ROLE_USER      = "USER"
)

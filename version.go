package rbridge

// Version of rbridge
const Version = "0.1.0"

// Description returns name and version line, as printed by rbi -version
func Description() string {
	return "rbridge " + Version + " - R interop bridge for Go"
}

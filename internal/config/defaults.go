package config

// Defaults returns the baseline configuration every store starts from,
// matching the minimum set a core expects to find at startup.
func Defaults() map[string]string {
	return map[string]string{
		"server_name":           "open.mp server",
		"mode_text":             "Unknown",
		"map_name":              "San Andreas",
		"language":              "Auto",
		"url":                   "",
		"password":              "",
		"admin_password":        "",
		"network.stream_radius": "300",
		"network.stream_rate":   "1000",
		"artwork.enabled":       "true",
	}
}

package linger

// Version is the release version the CLI reports.
const Version = "0.3.0"

// Command riskctl runs the analytics operations against the configured database.
package main

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func main() {
	rootCmd.Version = version
	Execute()
}

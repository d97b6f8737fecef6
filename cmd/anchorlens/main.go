package main

import "github.com/anchorlens/anchorlens/cmd/anchorlens/cmd"

// Version of the build. This is injected at build-time.
var buildString = "unknown"

func main() {
	cmd.Execute(buildString)
}

package main

import "github.com/RyanBlaney/acorde-sonar/internal/cli"

func main() {
	cli.Execute()
}

package main

import (
	"github.com/Nighthawk42/desktopmate-installer/cmd/desktopmate-installer/cmd"
)

func main() {
	cmd.Execute()
}

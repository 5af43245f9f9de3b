// Command areactl builds and manages AREA workflows from the terminal.
package main

import "areactl/internal/cli"

func main() {
	cli.Execute()
}

// Command askchat is a terminal chat client for an answering service.
package main

import "github.com/diogo/askchat/internal/commands"

func main() {
	commands.Execute()
}

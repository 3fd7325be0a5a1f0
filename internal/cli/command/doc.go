// Package command defines the tracker-cli commands.
//
// Commands are the view layer of the client: they collect input, call the
// session, registration and expense services, render results and carry
// out the navigation intents those services return. The shell command runs
// the same commands inside an interactive navigation loop.
package command

// Package repl implements the interactive tracker-cli shell.
//
// The shell is the navigation layer of the client. It holds the current
// route, asks the route guard before entering a protected route and carries
// out the redirect the guard hands back. Commands other than the built-in
// navigation ones are passed to an Executor, and the navigation intent they
// return is followed the same way.
package repl

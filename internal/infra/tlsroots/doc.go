// Package tlsroots builds the trusted root set tracker-cli uses for HTTPS
// servers: the system roots plus any CA certificates from a PEM file, for
// servers running with a private or self-signed certificate.
package tlsroots

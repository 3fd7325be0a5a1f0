// Package password hashes and verifies account passwords with Argon2id.
//
// Hashes use the PHC string format:
//
//	$argon2id$v=19$m=65536,t=1,p=2$<salt>$<hash>
//
// Salt and hash are unpadded standard Base64. Verify reads the cost
// parameters from the stored hash, so parameters can be raised without
// invalidating existing accounts.
package password

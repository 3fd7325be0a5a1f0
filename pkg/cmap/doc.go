// Package cmap provides a string-keyed map split into independently locked
// shards.
//
// The in-memory repository keeps accounts, the email index and expenses in
// separate maps so that concurrent signups and expense writes rarely contend
// on the same lock.
//
//	accounts := cmap.New[string, *domain.Account]()
//	if !accounts.SetIfAbsent(id, account) {
//		// taken
//	}
package cmap

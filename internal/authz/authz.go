// Package authz holds the stateless access policy. The transport layer
// consults these checks with the caller's verified identity before invoking
// storage; a false result maps to a 403 at the boundary.
package authz

import "github.com/vedran77/courier/internal/domain"

// CanViewMessage reports whether caller is the sender or the recipient.
func CanViewMessage(caller string, msg *domain.Message) bool {
	if msg == nil {
		return false
	}
	return caller == msg.FromUsername || caller == msg.ToUsername
}

// CanMarkRead reports whether caller is the recipient.
func CanMarkRead(caller string, msg *domain.Message) bool {
	if msg == nil {
		return false
	}
	return caller == msg.ToUsername
}

// CanViewUserDetail permits only self-access to full user records.
func CanViewUserDetail(caller, target string) bool {
	return caller != "" && caller == target
}

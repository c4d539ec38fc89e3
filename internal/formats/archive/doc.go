// Package archive provides the zip and tar format descriptors. Both decode
// to a domain.Archive whose Walk yields one EntryEntity per member.
package archive

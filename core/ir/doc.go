// Package ir defines the records shared by every engine component: the
// canonical verse identifier, verses, cross-references, commentaries and
// Strong's concordance records.
//
// # Canonical identifiers
//
// Every component keys off VerseID. Its wire form is
//
//	{BookAbbrev}.{Chapter}.{Verse}[-{VerseEnd}]
//
// for example "GEN.1.1" or "MAT.5.3-12". Ordering is by book number, then
// chapter, then verse. Parsing the wire form needs the canon and lives in
// the resolver package.
//
// # Immutability
//
// Values in this package are created by corpus import and never mutated at
// query time. Slices returned by stores may be shared between readers.
package ir

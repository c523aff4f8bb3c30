// Package odm parses OverDrive ODM loan manifests and speaks the small
// slice of the OverDrive license protocol sonus needs: acquiring a license
// token tied to a persistent client identifier, and returning a loan early.
//
// The ODM format embeds a second XML document (the Metadata island) that is
// not well-formed relative to the outer document; it is extracted textually
// and parsed on its own, matching how the service emits it.
package odm

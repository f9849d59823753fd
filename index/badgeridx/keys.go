package badgeridx

// Key prefixes for stored data
const (
	documentPrefix = "imgdoc"
	schemaKey      = "idxmeta:schema"
)

// makeDocumentKey generates the storage key for a document id.
func makeDocumentKey(id string) []byte {
	return []byte(documentPrefix + ":" + id)
}

// documentKeyPrefix returns the prefix shared by all document keys.
func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}

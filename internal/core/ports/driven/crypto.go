package driven

// Encryptor implements the AES-256-GCM envelope codec used to protect
// notebook content at rest (§6/§9). Decrypt never returns an error for a
// wrong password or corrupt envelope — it returns a fixed sentinel string
// instead, since a bad-password read is a normal outcome a caller
// displays to the user, not a system failure.
type Encryptor interface {
	Encrypt(password, plaintext string) (string, error)
	Decrypt(password, envelope string) string
}

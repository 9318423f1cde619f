// Package cipher provides URL-safe symmetric encryption envelopes and a chain
// operator to compose them.
//
// # Overview
//
// Every cipher implements the same contract:
//
//	GenerateKey() ([]byte, error)
//	Encrypt(data, key []byte) (string, error)
//	Decrypt(data string, key []byte) ([]byte, error)
//
// Envelopes are unpadded URL-safe Base64 and can be stored in URLs, cookies
// and file names without further escaping.
//
// # Quick Start
//
//	c, _ := cipher.NewGenericCipher()
//	key, _ := c.GenerateKey()
//
//	envelope, _ := c.Encrypt([]byte("A super secret message"), key)
//	plain, err := c.Decrypt(envelope, key)
//	if errors.Is(err, cipher.ErrAuthentication) {
//	    // tampered envelope or wrong key
//	}
//
// # Ciphers
//
//   - generic - AES-128-CBC, keys derived with PBKDF2-HMAC-SHA256 (1024
//     iterations) from two salts, HMAC-SHA256 tag over IV and ciphertext.
//     The tag is verified before anything is decrypted.
//   - simple - Blowfish-CBC with a 16 character HMAC checksum embedded in
//     the plaintext. NOT secure for sensitive data; kept because its
//     envelopes are short and existing data depends on it.
//
// Keys must be at least KeySize bytes; both ciphers use the first KeySize
// bytes.
//
// # Chains
//
// Ciphers compose with ChainCipher:
//
//	chain := cipher.NewChainCipher()
//	chain.Add(generic, 2)
//	chain.Add(simple, 3)
//
//	envelope, _ := chain.Encrypt(data, key) // generic twice, then simple three times
//	plain, _ := chain.Decrypt(envelope, key) // simple three times, then generic twice
//
// Recipes persist chain definitions by cipher name so they can be rebuilt
// later:
//
//	rm := cipher.NewRecipeManager("/path/to/recipes", nil)
//	rm.SaveRecipe(&cipher.Recipe{
//	    Name:  "layered",
//	    Links: []cipher.LinkConfig{{Cipher: "generic", Iterations: 2}, {Cipher: "simple", Iterations: 1}},
//	})
//	recipe, _ := rm.GetRecipe("layered")
//	chain, _ := recipe.Build()
//
// # Errors
//
// Failures carry one of the sentinel kinds (ErrInvalidKey, ErrInvalidData,
// ErrAuthentication, ...) and, when relevant, the primitive error that caused
// them. Use errors.Is to match either.
//
// # Thread Safety
//
// Ciphers hold only configuration fixed at construction and are safe for
// concurrent use. ChainCipher, the cipher registry and RecipeManager use
// internal locking.
package cipher

package cipher

import (
	"fmt"
	"sync"
)

// ChainLink is one step of a chain: a cipher applied Iterations times.
type ChainLink struct {
	Cipher     Cipher
	Iterations int
}

// ChainCipher applies its links in insertion order on Encrypt and in reverse
// order on Decrypt.
type ChainCipher struct {
	mu    sync.RWMutex
	links []ChainLink
}

// NewChainCipher returns an empty chain.
func NewChainCipher() *ChainCipher {
	return &ChainCipher{}
}

// Add appends a link. Iterations must be at least 1.
func (c *ChainCipher) Add(cipher Cipher, iterations int) error {
	if cipher == nil {
		return newError("add cipher", ErrInvalidArgument, "cipher cannot be nil")
	}
	if iterations < 1 {
		return newError("add cipher", ErrInvalidArgument, "iterations should be a positive integer, got %d", iterations)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.links = append(c.links, ChainLink{Cipher: cipher, Iterations: iterations})
	return nil
}

// Remove drops the first link holding this exact cipher instance.
func (c *ChainCipher) Remove(cipher Cipher) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, link := range c.links {
		if link.Cipher == cipher {
			c.links = append(c.links[:i:i], c.links[i+1:]...)
			return nil
		}
	}

	return newError("remove cipher", ErrNotFound, "provided cipher not found in the chain")
}

// Len returns the number of links.
func (c *ChainCipher) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.links)
}

// Links returns a copy of the chain.
func (c *ChainCipher) Links() []ChainLink {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ChainLink, len(c.links))
	copy(out, c.links)
	return out
}

// GenerateKey delegates to the first link.
func (c *ChainCipher) GenerateKey() ([]byte, error) {
	links := c.Links()
	if len(links) == 0 {
		return nil, newError("generate key", ErrEmptyChain, "no ciphers added to the chain")
	}
	return links[0].Cipher.GenerateKey()
}

// Encrypt feeds data through every link in order. An empty chain returns
// data unchanged.
func (c *ChainCipher) Encrypt(data, key []byte) (string, error) {
	links := c.Links()
	current := string(data)
	for i, link := range links {
		for n := 1; n <= link.Iterations; n++ {
			out, err := link.Cipher.Encrypt([]byte(current), key)
			if err != nil {
				return "", fmt.Errorf("chain link %d iteration %d: %w", i, n, err)
			}
			current = out
		}
	}

	return current, nil
}

// Decrypt unwinds the chain, last link first, with the same iteration counts.
func (c *ChainCipher) Decrypt(data string, key []byte) ([]byte, error) {
	links := c.Links()
	current := []byte(data)
	for i := len(links) - 1; i >= 0; i-- {
		link := links[i]
		for n := 1; n <= link.Iterations; n++ {
			out, err := link.Cipher.Decrypt(string(current), key)
			if err != nil {
				return nil, fmt.Errorf("chain link %d iteration %d: %w", i, n, err)
			}
			current = out
		}
	}

	return current, nil
}

// internal/vault/vault.go
//
// Vault client wrapper for secret-bearing config values.
//
// Context
// -------
//   - Config values of the form `vault:<mount>/<path>#<key>` are secret
//     references.  Resolve turns them into plain strings at startup; any
//     other value passes through untouched, so Vault is only contacted
//     when a reference is actually present.
//   - Adds simple KV-v2 helpers and per-key caching around the HashiCorp
//     Vault Go SDK.
//   - Follows the Adept comment style: header block, section underlines,
//     Oxford commas, two spaces after periods, no m-dash.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(log.Infof)                // during boot.
//  2. pw,  err := cli.Resolve(ctx, cfg.Database.GlobalPassword)
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token used for reads.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// RefPrefix marks a config value as a Vault reference.
const RefPrefix = "vault:"

// ErrBadRef indicates a malformed `vault:` reference.
var ErrBadRef = errors.New("malformed vault reference")

//
// SECTION 1.  References
//

// Ref is a parsed `vault:<path>#<key>` value.
type Ref struct {
	Path string // e.g. "kv/adept/db"
	Key  string // e.g. "password"
}

// IsRef reports whether value carries the vault: prefix.
func IsRef(value string) bool { return strings.HasPrefix(value, RefPrefix) }

// ParseRef splits a reference into path and key.
func ParseRef(value string) (Ref, error) {
	if !IsRef(value) {
		return Ref{}, fmt.Errorf("%w: missing %q prefix", ErrBadRef, RefPrefix)
	}
	p, key, ok := strings.Cut(strings.TrimPrefix(value, RefPrefix), "#")
	p = strings.Trim(p, "/")
	if !ok || p == "" || key == "" || !strings.Contains(p, "/") {
		return Ref{}, fmt.Errorf("%w: want vault:<mount>/<path>#<key>", ErrBadRef)
	}
	return Ref{Path: p, Key: key}, nil
}

//
// SECTION 2.  Client
//

// Client is safe for concurrent use.  Create once at startup.
type Client struct {
	api   *vault.Client
	logFn func(string, ...any)

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry.
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from VAULT_* environment variables.
func New(logFn func(string, ...any)) (*Client, error) {
	if logFn == nil {
		logFn = func(string, ...any) {}
	}

	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	return &Client{
		api:   apiCli,
		logFn: logFn,
		cache: make(map[string]cached),
	}, nil
}

// Resolve returns value unchanged unless it is a vault: reference, in which
// case the referenced KV-v2 key is fetched and cached for an hour.
func (c *Client) Resolve(ctx context.Context, value string) (string, error) {
	if !IsRef(value) {
		return value, nil
	}
	ref, err := ParseRef(value)
	if err != nil {
		return "", err
	}
	if c == nil || c.api == nil {
		return "", fmt.Errorf("vault reference %s#%s: no vault client", ref.Path, ref.Key)
	}
	return c.GetKV(ctx, ref.Path, ref.Key, time.Hour)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result is
// cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	c.logFn("vault: resolved %s#%s", secretPath, key)
	return sval, nil
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

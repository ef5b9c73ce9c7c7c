package services

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"log"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 64

// cachedInferenceClient memoizes successful responses by content hash.
// Concurrent calls for the same key share one upstream call.
type cachedInferenceClient struct {
	next  InferenceClient
	cache *lru.Cache[string, string]
	group singleflight.Group
}

// NewCachedInferenceClient wraps next with a bounded LRU. A size of zero
// disables memoization and returns next unchanged.
func NewCachedInferenceClient(next InferenceClient, size int) (InferenceClient, error) {
	if size == 0 {
		return next, nil
	}
	if size < 0 {
		return nil, fmt.Errorf("invalid cache size %d", size)
	}

	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create response cache: %w", err)
	}

	return &cachedInferenceClient{
		next:  next,
		cache: cache,
	}, nil
}

func (c *cachedInferenceClient) Generate(ctx context.Context, req InferenceRequest) (string, error) {
	key := RequestKey(req)

	if text, ok := c.cache.Get(key); ok {
		log.Printf("✅ Response cache hit %s\n", key[:12])
		return text, nil
	}

	// The shared call must not inherit one caller's cancellation; each
	// caller stops waiting on its own context instead.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if text, ok := c.cache.Get(key); ok {
			return text, nil
		}
		text, err := c.next.Generate(shared, req)
		if err != nil {
			return "", err
		}
		c.cache.Add(key, text)
		return text, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// RequestKey hashes the instruction, every image and the template. Each field
// is length-prefixed so that different splits of the same bytes never collide.
func RequestKey(req InferenceRequest) string {
	h := sha256.New()
	writeField(h, req.Instruction)
	writeLength(h, len(req.Images))
	for _, img := range req.Images {
		writeField(h, img.MIMEType)
		writeField(h, img.Data)
	}
	writeField(h, req.Template)
	return hex.EncodeToString(h.Sum(nil))
}

func writeField(h hash.Hash, s string) {
	writeLength(h, len(s))
	h.Write([]byte(s))
}

func writeLength(h hash.Hash, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

package compression

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor shares one encoder and one decoder across calls. Both are
// safe for concurrent EncodeAll and DecodeAll.
type ZstdCompressor struct {
	once    sync.Once
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	err     error
}

func NewZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{}
}

func (z *ZstdCompressor) init() error {
	z.once.Do(func() {
		z.encoder, z.err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if z.err != nil {
			return
		}
		z.decoder, z.err = zstd.NewReader(nil)
	})
	return z.err
}

func (z *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if err := z.init(); err != nil {
		return nil, err
	}
	return z.encoder.EncodeAll(data, nil), nil
}

func (z *ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if err := z.init(); err != nil {
		return nil, err
	}
	return z.decoder.DecodeAll(data, nil)
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when a patch does not name one
const DefaultEncoding = "utf-8"

// Codec converts file bytes to and from the UTF-8 text patterns run against
type Codec struct {
	name string
	enc  encoding.Encoding // nil for utf-8
}

// LookupCodec resolves an encoding label such as "utf-8", "latin1" or
// "windows-1252". An empty label means DefaultEncoding.
func LookupCodec(label string) (*Codec, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, errors.Errorf("unknown encoding %q: %w", label, err)
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		return nil, errors.Errorf("naming encoding %q: %w", label, err)
	}

	if name == DefaultEncoding {
		return &Codec{name: name}, nil
	}
	return &Codec{name: name, enc: enc}, nil
}

// Name returns the canonical encoding name
func (c *Codec) Name() string {
	return c.name
}

// Decode converts raw file bytes into UTF-8 text
func (c *Codec) Decode(raw []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(raw) {
			return "", errors.Errorf("decoding %s: invalid byte sequence", c.name)
		}
		return string(raw), nil
	}

	decoded, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.Errorf("decoding %s: %w", c.name, err)
	}
	return string(decoded), nil
}

// Encode converts UTF-8 text back into the file's encoding
func (c *Codec) Encode(s string) ([]byte, error) {
	if c.enc == nil {
		return []byte(s), nil
	}

	encoded, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.name, err)
	}
	return encoded, nil
}

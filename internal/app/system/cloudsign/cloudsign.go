// Package cloudsign issues signatures for direct browser uploads to
// Cloudinary. The server never proxies image bytes; clients upload straight
// to Cloudinary using a short-lived signature minted here.
package cloudsign

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
)

// Signer mints upload signatures for a fixed Cloudinary account.
type Signer struct {
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func New(cloudName, apiKey, apiSecret string) (*Signer, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are required")
	}
	return &Signer{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		now:       time.Now,
	}, nil
}

// Ticket is everything a client needs to perform one signed upload.
type Ticket struct {
	Signature    string `json:"signature"`
	Timestamp    int64  `json:"timestamp"`
	APIKey       string `json:"api_key"`
	CloudName    string `json:"cloud_name"`
	UploadPreset string `json:"upload_preset"`
}

// Sign produces an upload ticket for the given preset.
func (s *Signer) Sign(preset string) (Ticket, error) {
	ts := s.now().Unix()

	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(ts, 10))
	params.Set("upload_preset", preset)

	sig, err := api.SignParameters(params, s.apiSecret)
	if err != nil {
		return Ticket{}, fmt.Errorf("sign upload parameters: %w", err)
	}
	return Ticket{
		Signature:    sig,
		Timestamp:    ts,
		APIKey:       s.apiKey,
		CloudName:    s.cloudName,
		UploadPreset: preset,
	}, nil
}

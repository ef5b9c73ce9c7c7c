package models

// SourceDocument is one uploaded résumé. It lives only in memory for the
// duration of a request.
type SourceDocument struct {
	Filename string
	Data     []byte
}

func (d *SourceDocument) Size() int64 {
	return int64(len(d.Data))
}

const MIMETypeJPEG = "image/jpeg"

// PageImage is a single rasterized page, Data holding the base64 encoded
// image bytes.
type PageImage struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

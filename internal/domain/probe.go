package domain

import "time"

// ProbeResult is the part of ffprobe's JSON output the pipeline reads:
// container tags from -show_format and stream heights from -show_entries.
type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
	RawJSON string        `json:"-"`
}

type ProbeFormat struct {
	Tags map[string]string `json:"tags"`
}

type ProbeStream struct {
	CodecType string `json:"codec_type"`
	Height    int    `json:"height"`
}

// VideoStream returns the first video stream. Streams selected with
// -select_streams v:0 carry no codec_type, so a lone stream is returned as is.
func (p *ProbeResult) VideoStream() *ProbeStream {
	for i, s := range p.Streams {
		if s.CodecType == "video" {
			return &p.Streams[i]
		}
	}
	if len(p.Streams) == 1 && p.Streams[0].CodecType == "" {
		return &p.Streams[0]
	}
	return nil
}

// CreationTime returns the container-level creation_time tag, if present.
func (p *ProbeResult) CreationTime() (time.Time, error) {
	raw, ok := p.Format.Tags["creation_time"]
	if !ok {
		return time.Time{}, ErrNoCreationTime
	}
	return ParseContainerTime(raw)
}

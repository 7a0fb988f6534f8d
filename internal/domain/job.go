package domain

// VideoJob is one ffmpeg invocation. ScaleHeight of zero means no scaling.
type VideoJob struct {
	Input       string
	Output      string
	CRF         int
	ScaleHeight int
}

// ImageJob is one image re-encode.
type ImageJob struct {
	Input        string
	Output       string
	MaxDimension int
	Quality      int
}

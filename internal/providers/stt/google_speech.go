package stt

import (
	"context"
	"mime"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
)

type GoogleSpeech struct {
	c *speech.Client

	DefaultLanguage string
	SampleRateHz    int32
}

func NewGoogleSpeech(ctx context.Context, language string) (*GoogleSpeech, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if language == "" {
		language = "en-US"
	}
	return &GoogleSpeech{c: c, DefaultLanguage: language, SampleRateHz: 16000}, nil
}

func (g *GoogleSpeech) Close() error { return g.c.Close() }

// Transcribe joins every result's top alternative; an answer spanning
// several utterances comes back whole. confidence is the mean over results.
func (g *GoogleSpeech) Transcribe(ctx context.Context, a Audio) (string, float64, error) {
	lang := a.Language
	if lang == "" {
		lang = g.DefaultLanguage
	}

	cfg := &speechpb.RecognitionConfig{
		Encoding:                   EncodingFor(a.ContentType),
		LanguageCode:               lang,
		EnableAutomaticPunctuation: true,
	}
	if cfg.Encoding == speechpb.RecognitionConfig_LINEAR16 {
		cfg.SampleRateHertz = g.SampleRateHz
	}

	resp, err := g.c.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: a.Data},
		},
	})
	if err != nil {
		return "", 0, err
	}

	var parts []string
	var conf []float32
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		if alt.Transcript != "" {
			parts = append(parts, strings.TrimSpace(alt.Transcript))
			conf = append(conf, alt.Confidence)
		}
	}
	return joinTranscript(parts, conf)
}

func joinTranscript(parts []string, conf []float32) (string, float64, error) {
	if len(parts) == 0 {
		return "", 0, ErrNoSpeech
	}
	var sum float64
	for _, c := range conf {
		sum += float64(c)
	}
	return strings.Join(parts, " "), sum / float64(len(conf)), nil
}

// EncodingFor maps an upload's content type to the recognizer encoding.
// Unknown types let the service sniff the header.
func EncodingFor(contentType string) speechpb.RecognitionConfig_AudioEncoding {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch mt {
	case "audio/webm":
		return speechpb.RecognitionConfig_WEBM_OPUS
	case "audio/ogg":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "audio/wav", "audio/x-wav", "audio/wave":
		return speechpb.RecognitionConfig_LINEAR16
	case "audio/flac", "audio/x-flac":
		return speechpb.RecognitionConfig_FLAC
	case "audio/mpeg", "audio/mp3":
		return speechpb.RecognitionConfig_MP3
	}
	return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
}

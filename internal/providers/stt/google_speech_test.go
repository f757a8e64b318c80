package stt

import (
	"testing"

	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodingFor(t *testing.T) {
	assert.Equal(t, speechpb.RecognitionConfig_WEBM_OPUS, EncodingFor("audio/webm;codecs=opus"))
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, EncodingFor("audio/wav"))
	assert.Equal(t, speechpb.RecognitionConfig_MP3, EncodingFor("AUDIO/MPEG"))
	assert.Equal(t, speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, EncodingFor("application/octet-stream"))
}

func TestJoinTranscript(t *testing.T) {
	text, conf, err := joinTranscript([]string{"I used Go", "for a queue"}, []float32{0.5, 1})
	require.NoError(t, err)
	assert.Equal(t, "I used Go for a queue", text)
	assert.InDelta(t, 0.75, conf, 1e-9)

	_, _, err = joinTranscript(nil, nil)
	assert.ErrorIs(t, err, ErrNoSpeech)
}

package decode

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/polyglot-cli/polyglot/internal/schema"
	"github.com/polyglot-cli/polyglot/internal/stream"
	"github.com/stretchr/testify/require"
)

const oneOption = "5||||Hello||||common||||common||||Annyeong||||A greeting||||alloy||||"

func chunksFrom(frags ...string) <-chan stream.Chunk {
	ch := make(chan stream.Chunk, len(frags))
	for _, f := range frags {
		ch <- stream.Chunk{Content: f}
	}
	close(ch)
	return ch
}

func wantOption() schema.Record {
	return schema.Record{
		Num:                      5,
		Translation:              "Hello",
		FrequencyRating:          "common",
		FrequencyRatingLocalized: "common",
		Transliteration:          "Annyeong",
		Explanation:              "A greeting",
		RecommendedVoice:         "alloy",
	}
}

func TestSingleFragmentProducesOneRecord(t *testing.T) {
	d := NewDecoder(schema.Option(), List)
	require.NoError(t, d.Run(chunksFrom(oneOption), nil))

	recs := d.Records()
	require.Len(t, recs, 1)
	require.Equal(t, wantOption(), recs[0])
	require.True(t, d.Bus().Done())
}

func TestFragmentedInputProducesSameRecord(t *testing.T) {
	d := NewDecoder(schema.Option(), List)
	err := d.Run(chunksFrom(
		"5|", "|||Hel", "lo||||comm",
		"on||||common||||Annyeong||||A greeting||||alloy||||",
	), nil)
	require.NoError(t, err)

	recs := d.Records()
	require.Len(t, recs, 1)
	require.Equal(t, wantOption(), recs[0])
}

func TestFragmentationInvariance(t *testing.T) {
	second := "6||||Hi||||rare||||rare||||Annyeonghaseyo||||Formal greeting||||nova||||"
	input := oneOption + second

	whole := NewDecoder(schema.Option(), List)
	require.NoError(t, whole.Run(chunksFrom(input), nil))
	want := whole.Records()
	require.Len(t, want, 2)

	for split := 1; split < len(input); split++ {
		d := NewDecoder(schema.Option(), List)
		require.NoError(t, d.Run(chunksFrom(input[:split], input[split:]), nil))
		require.Equal(t, want, d.Records(), "split at byte %d", split)
	}
}

func TestRecordOrderFollowsInput(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 3; i++ {
		b.WriteString(strings.ReplaceAll(oneOption, "5", string(rune('0'+i))))
	}

	d := NewDecoder(schema.Option(), List)
	require.NoError(t, d.Run(chunksFrom(b.String()), nil))

	recs := d.Records()
	require.Len(t, recs, 3)
	for i, rec := range recs {
		require.Equal(t, i+1, rec.Num)
		require.Equal(t, i, rec.Seq)
	}
}

func TestTailFlushAssignsNumber(t *testing.T) {
	d := NewDecoder(schema.Detail(), Single)
	require.NoError(t, d.Run(chunksFrom("42"), nil))

	recs := d.Records()
	require.Len(t, recs, 1)
	require.Equal(t, 42, recs[0].Num)
	require.True(t, d.Bus().Done())
}

func TestListTailFlushSealsFinalRecord(t *testing.T) {
	// Final sentinel never arrives; the flush supplies the 7th field.
	input := strings.TrimSuffix(oneOption, Sentinel)
	d := NewDecoder(schema.Option(), List)
	require.NoError(t, d.Run(chunksFrom(input), nil))

	recs := d.Records()
	require.Len(t, recs, 1)
	require.Equal(t, wantOption(), recs[0])
}

func TestSingleModeEmitsProgressiveSnapshots(t *testing.T) {
	d := NewDecoder(schema.Detail(), Single)
	require.NoError(t, d.Run(chunksFrom("1||||Hello||||"), nil))

	recs := d.Records()
	require.Len(t, recs, 1)
	require.Equal(t, 1, recs[0].Num)
	require.Equal(t, "Hello", recs[0].Translation)
	require.Empty(t, recs[0].IdiomDetected)
}

func TestRawPassthrough(t *testing.T) {
	frags := []string{"5|", "|||Hel", "lo||||"}
	d := NewDecoder(schema.Option(), List)
	raw := make(chan string, len(frags))

	require.NoError(t, d.Run(chunksFrom(frags...), raw))

	var got []string
	for f := range raw {
		got = append(got, f)
	}
	require.Equal(t, frags, got)
}

func TestTransportErrorPropagates(t *testing.T) {
	wantErr := errors.New("connection reset")
	ch := make(chan stream.Chunk, 2)
	ch <- stream.Chunk{Content: "5||||Hel"}
	ch <- stream.Chunk{Err: wantErr}
	close(ch)

	d := NewDecoder(schema.Option(), List)
	err := d.Run(ch, nil)
	require.ErrorIs(t, err, wantErr)

	// A transport failure never completes the channel; that stays with
	// the caller.
	require.False(t, d.Bus().Done())
	require.Empty(t, d.Records())
}

func TestAwaitersSeeSealedRecord(t *testing.T) {
	d := NewDecoder(schema.Option(), List)

	type result struct {
		rec schema.Record
		ok  bool
	}
	got := make(chan result, 1)
	go func() {
		rec, ok := d.Bus().AwaitNext(context.Background())
		got <- result{rec, ok}
	}()
	require.Eventually(t, func() bool { return d.Bus().Waiting() == 1 },
		time.Second, time.Millisecond)

	require.NoError(t, d.Run(chunksFrom(oneOption), nil))
	r := <-got
	require.True(t, r.ok)
	require.Equal(t, wantOption(), r.rec)
}

package gemini

import "encoding/binary"

// TTS output format: mono 16-bit linear PCM at 24 kHz.
const (
	pcmSampleRate = 24000
	pcmChannels   = 1
	pcmBitDepth   = 16
)

// wrapPCM prepends a RIFF/WAVE header to raw PCM samples.
func wrapPCM(pcm []byte) []byte {
	byteRate := pcmSampleRate * pcmChannels * pcmBitDepth / 8
	blockAlign := pcmChannels * pcmBitDepth / 8

	buf := make([]byte, 0, 44+len(pcm))
	u32 := func(v uint32) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, v)
		return b
	}
	u16 := func(v uint16) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, v)
		return b
	}

	buf = append(buf, "RIFF"...)
	buf = append(buf, u32(uint32(36+len(pcm)))...)
	buf = append(buf, "WAVE"...)

	buf = append(buf, "fmt "...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM format
	buf = append(buf, u16(pcmChannels)...)
	buf = append(buf, u32(pcmSampleRate)...)
	buf = append(buf, u32(uint32(byteRate))...)
	buf = append(buf, u16(uint16(blockAlign))...)
	buf = append(buf, u16(pcmBitDepth)...)

	buf = append(buf, "data"...)
	buf = append(buf, u32(uint32(len(pcm)))...)
	buf = append(buf, pcm...)
	return buf
}

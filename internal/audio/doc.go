// Package audio plays the attention chime when a notice is presented.
// WAV, MP3 and OGG Vorbis files are decoded once and cached.
package audio

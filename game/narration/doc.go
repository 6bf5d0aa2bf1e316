// Package narration turns feedback events into spoken encouragement, sound
// cues and the final reward sticker.
//
// A Narrator is a feedback.Channel. Sound cues are published as soon as the
// event arrives. Speech and image generation go through a Voice on a single
// worker goroutine fed by a bounded queue; when the queue is full the job is
// dropped. The engine never waits on narration, and a failing Voice only
// degrades to text.
//
// Phrases are in Chinese, matching the game's audience.
//
// GeminiVoice implements Voice (and service.Explainer) on top of the Gemini
// API: gemini-2.5-flash-preview-tts for speech, gemini-2.5-flash for
// explanations and gemini-2.5-flash-image for the sticker.
package narration

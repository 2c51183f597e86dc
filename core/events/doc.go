// Package events defines the typed inbound event contract of a realtime
// session.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - response.*
//   - input.*
//   - error, unrecognized
//
// session events
//
//   - SessionCreated (session.created): the server accepted the connection
//     and created a session with its default configuration.
//   - SessionUpdated (session.updated): the server applied a session.update.
//
// response events
//
//   - ResponseCreated (response.created): the server started generating a
//     response. At most one response is active per session.
//   - AudioDelta (response.audio_delta): decoded audio chunk of the active
//     response.
//   - TranscriptDelta (response.transcript_delta): append-only text of the
//     active response, the audio transcript or the text output of a
//     text-only session.
//   - ResponseDone (response.done): the active response ended, either
//     completed, cancelled, or failed.
//
// input events
//
//   - SpeechStarted (input.speech_started): server voice activity detection
//     heard the user start speaking.
//   - SpeechStopped (input.speech_stopped): the user stopped speaking.
//
// Error (error) carries a server-reported error payload. Unrecognized
// (unrecognized) is produced for well-formed messages of a type this
// package does not model; it is never fatal.
package events

// Package cyrfix reads and rewrites the text metadata of audio files.
//
// It is the tag layer of the cyrfix repair tool, which finds Cyrillic tags
// that were stored as Windows-1251 and read back as ISO-8859-1 and restores
// them. The package itself knows nothing about repair: it opens a file,
// exposes its text fields as a Tags record, and writes a changed record back
// atomically.
//
// # Quick Start
//
//	file, err := cyrfix.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	file.Tags.Title = "Группа крови"
//	if err := file.Save(cyrfix.WithBackup(".bak")); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Formats
//
//   - MP3: ID3v2.3 and ID3v2.4 tags, read and write; ID3v2.2 read only
//   - FLAC: Vorbis comments, read and write
//
// Only the bound text fields are interpreted. Everything else in the file,
// from pictures and unknown frames to the audio stream itself, is copied
// byte for byte when the tag is rewritten.
//
// # Error Handling
//
// Open returns *UnreadableFileError and Save returns *WriteError, each
// wrapping the underlying cause (*UnsupportedFormatError,
// *CorruptedFileError, *UnsupportedWriteError or an I/O error). Non-fatal
// parsing issues are reported in File.Warnings.
package cyrfix

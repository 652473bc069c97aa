// Command cyrfix repairs Cyrillic tag text in MP3 and FLAC files that was
// stored as Windows-1251 and later read back as ISO-8859-1.
//
// Running cyrfix without a subcommand repairs every matching file under the
// configured folder and appends each change to the audit log. "cyrfix check"
// previews the same run without saving anything.
package main

// Package tagio defines the tag container contract the core consumes.
//
// Reading and writing actual tag containers (ID3, Vorbis comments, MP4
// atoms) belongs to an external collaborator; the core only needs LoadTags
// and SaveTags. The package ships one real implementation, PathReader,
// which derives working tags from the conventional
// Artist/Album/NN Title.ext library layout so the tool is useful before any
// container backend is wired in.
package tagio

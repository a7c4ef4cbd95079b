package common

// SableVersion is the current Sable version as a string.
const SableVersion string = "0.1.0"

// SableProjectFileName is the name for Sable project files.
const SableProjectFileName string = "sable-mod.toml"

// SableIRFileExt is the file extension for a serialized semantic IR file.
const SableIRFileExt string = ".sir"

// LLVMFileExt is the file extension for an emitted textual LLVM module.
const LLVMFileExt string = ".ll"

// Package envelope implements the hybrid RSA envelope used for encrypted chunks.
//
// An envelope is laid out as E || S || C where S is a random 32-byte session value,
// E is S encrypted with RSA-OAEP (SHA-1) under the recipient's public key and C is the
// zlib-compressed chunk. S is carried in the clear and is not used to encrypt C.
package envelope

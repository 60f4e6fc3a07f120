// Package asset decodes and encodes the Midgard model container: skinned
// meshes, a bone hierarchy, keyframe animations and materials.
//
// Layout (little-endian, no padding):
//
//	Container  := meshCount:u32 materialCount:u32 hasSkeleton:u8 animCount:u32
//	              Skeleton? Mesh[meshCount] Material[materialCount] Animation[animCount]
//	Skeleton   := boneCount:u32 Bone[boneCount]
//	Bone       := name:byte[64] parentId:i32 transform:f32[16]
//	Mesh       := typeTag:u32 vertexCount:u32 vertices:byte[vertexCount*stride]
//	              indexCount:u32 indices:u32[indexCount]
//	Material   := name:byte[48] type:u32 indexCount:u32 dataSize:u64
//	              ParamIndex[indexCount] data:byte[dataSize]
//	ParamIndex := id:u32 size:u16 offset:u16
//	Animation  := name:byte[56] duration:f32 ticksPerSecond:f32 keyCount:u32
//	              boneCount:u32 times:f32[keyCount] samples:Sample[keyCount*boneCount]
//	Sample     := position:f32[4] rotation:f32[4] scale:f32[4]
//
// Decoding treats the buffer as untrusted. Every read is bounds checked and
// declared counts are compared against the remaining bytes before anything
// is allocated. Decoded values own their storage; nothing aliases the input.
//
// Decode and Encode keep no state, so independent buffers may be decoded
// concurrently.
package asset

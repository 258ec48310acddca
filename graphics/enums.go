package graphics

// GL enum values used by the resource layer. They match the values in the
// Khronos headers so a driver can pass them through unchanged.
const (
	NONE  = 0
	FALSE = 0
	TRUE  = 1

	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_LOOP      = 0x0002
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005
	TRIANGLE_FAN   = 0x0006

	BYTE           = 0x1400
	UNSIGNED_BYTE  = 0x1401
	SHORT          = 0x1402
	UNSIGNED_SHORT = 0x1403
	INT            = 0x1404
	UNSIGNED_INT   = 0x1405
	FLOAT          = 0x1406
	HALF_FLOAT     = 0x140B

	DEPTH_BUFFER_BIT = 0x00000100
	COLOR_BUFFER_BIT = 0x00004000

	TEXTURE_2D                  = 0x0DE1
	TEXTURE_CUBE_MAP            = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_X = 0x8516
	TEXTURE_CUBE_MAP_POSITIVE_Y = 0x8517
	TEXTURE_CUBE_MAP_NEGATIVE_Y = 0x8518
	TEXTURE_CUBE_MAP_POSITIVE_Z = 0x8519
	TEXTURE_CUBE_MAP_NEGATIVE_Z = 0x851A
	TEXTURE0                    = 0x84C0

	TEXTURE_MAG_FILTER = 0x2800
	TEXTURE_MIN_FILTER = 0x2801
	TEXTURE_WRAP_S     = 0x2802
	TEXTURE_WRAP_T     = 0x2803
	TEXTURE_WRAP_R     = 0x8072

	NEAREST              = 0x2600
	LINEAR               = 0x2601
	LINEAR_MIPMAP_LINEAR = 0x2703
	REPEAT               = 0x2901
	CLAMP_TO_EDGE        = 0x812F
	MIRRORED_REPEAT      = 0x8370

	RED     = 0x1903
	RGB     = 0x1907
	RGBA    = 0x1908
	RG      = 0x8227
	R8      = 0x8229
	RG8     = 0x822B
	RGB8    = 0x8051
	RGBA8   = 0x8058
	R32F    = 0x822E
	RG32F   = 0x8230
	RGB32F  = 0x8815
	RGBA32F = 0x8814
	RGBA16F = 0x881A

	SRGB8_ALPHA8 = 0x8C43

	UNPACK_ALIGNMENT = 0x0CF5
	PACK_ALIGNMENT   = 0x0D05

	ARRAY_BUFFER         = 0x8892
	ELEMENT_ARRAY_BUFFER = 0x8893
	STATIC_DRAW          = 0x88E4
	DYNAMIC_DRAW         = 0x88E8

	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31
	COMPILE_STATUS  = 0x8B81
	LINK_STATUS     = 0x8B82
	INFO_LOG_LENGTH = 0x8B84

	FRAMEBUFFER          = 0x8D40
	READ_FRAMEBUFFER     = 0x8CA8
	DRAW_FRAMEBUFFER     = 0x8CA9
	RENDERBUFFER         = 0x8D41
	COLOR_ATTACHMENT0    = 0x8CE0
	DEPTH_ATTACHMENT     = 0x8D00
	DEPTH_COMPONENT16    = 0x81A5
	DEPTH_COMPONENT24    = 0x81A6
	FRAMEBUFFER_COMPLETE = 0x8CD5

	MAX_DRAW_BUFFERS        = 0x8824
	MAX_COLOR_ATTACHMENTS   = 0x8CDF
	MAX_TEXTURE_IMAGE_UNITS = 0x8872
)

package domain

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY = "https://ipfs.pasarprotocol.io"

	// Blockchain constants
	BURN_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Sticker contract of the legacy marketplace; its tokens are synced by the v1 workers on every chain
	LEGACY_STICKER_ADDRESS = "0x020c7303664bc88ae92cE3D380BF361E03B78B81"

	// ERC165 interface id of ERC-721
	ERC721_INTERFACE_ID = "0x80ac58cd"

	// Metadata enrichment gives up after this many failed fetches until an operator resets the counter
	MAX_METADATA_RETRIES = 5
)

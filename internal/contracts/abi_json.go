package contracts

// StickerABI is the base ERC-1155 collection of the marketplace
const StickerABI = `[{"anonymous":false,"inputs":[{"indexed":true,"name":"_operator","type":"address"},{"indexed":true,"name":"_from","type":"address"},{"indexed":true,"name":"_to","type":"address"},{"indexed":false,"name":"_id","type":"uint256"},{"indexed":false,"name":"_value","type":"uint256"}],"name":"TransferSingle","type":"event"},{"inputs":[{"name":"_id","type":"uint256"}],"name":"tokenInfo","outputs":[{"components":[{"name":"tokenId","type":"uint256"},{"name":"tokenIndex","type":"uint256"},{"name":"tokenSupply","type":"uint256"},{"name":"tokenUri","type":"string"},{"name":"royaltyOwner","type":"address"},{"name":"royaltyFee","type":"uint256"},{"name":"createTime","type":"uint256"},{"name":"updateTime","type":"uint256"}],"name":"","type":"tuple"}],"stateMutability":"view","type":"function"},{"inputs":[{"name":"_id","type":"uint256"}],"name":"uri","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`

// PasarABI is the marketplace contract
const PasarABI = `[{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_baseToken","type":"address"},{"indexed":false,"name":"_tokenId","type":"uint256"},{"indexed":false,"name":"_amount","type":"uint256"},{"indexed":false,"name":"_quoteToken","type":"address"},{"indexed":false,"name":"_price","type":"uint256"},{"indexed":false,"name":"_startTime","type":"uint256"}],"name":"OrderForSale","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_baseToken","type":"address"},{"indexed":false,"name":"_tokenId","type":"uint256"},{"indexed":false,"name":"_amount","type":"uint256"},{"indexed":false,"name":"_quoteToken","type":"address"},{"indexed":false,"name":"_minPrice","type":"uint256"},{"indexed":false,"name":"_reservePrice","type":"uint256"},{"indexed":false,"name":"_buyoutPrice","type":"uint256"},{"indexed":false,"name":"_startTime","type":"uint256"},{"indexed":false,"name":"_endTime","type":"uint256"}],"name":"OrderForAuction","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_buyer","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_price","type":"uint256"}],"name":"OrderBid","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_oldPrice","type":"uint256"},{"indexed":false,"name":"_newPrice","type":"uint256"},{"indexed":false,"name":"_olderReservePrice","type":"uint256"},{"indexed":false,"name":"_newReservePrice","type":"uint256"},{"indexed":false,"name":"_olderBuyoutPrice","type":"uint256"},{"indexed":false,"name":"_newBuyoutPrice","type":"uint256"},{"indexed":false,"name":"_olderQuoteToken","type":"address"},{"indexed":false,"name":"_newQuoteToken","type":"address"}],"name":"OrderPriceChanged","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_buyer","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_baseToken","type":"address"},{"indexed":false,"name":"_quoteToken","type":"address"},{"indexed":false,"name":"_price","type":"uint256"},{"indexed":false,"name":"_royaltyFee","type":"uint256"},{"indexed":false,"name":"_platformFee","type":"uint256"}],"name":"OrderFilled","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"}],"name":"OrderCanceled","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"}],"name":"OrderTakenDown","type":"event"},{"inputs":[{"name":"_orderId","type":"uint256"}],"name":"getOrderById","outputs":[{"components":[{"name":"orderId","type":"uint256"},{"name":"orderType","type":"uint256"},{"name":"orderState","type":"uint256"},{"name":"baseToken","type":"address"},{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"quoteToken","type":"address"},{"name":"price","type":"uint256"},{"name":"reservePrice","type":"uint256"},{"name":"buyoutPrice","type":"uint256"},{"name":"startTime","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"sellerAddr","type":"address"},{"name":"buyerAddr","type":"address"},{"name":"bids","type":"uint256"},{"name":"lastBidder","type":"address"},{"name":"lastBid","type":"uint256"},{"name":"filled","type":"uint256"},{"name":"royaltyOwner","type":"address"},{"name":"royaltyFee","type":"uint256"},{"name":"sellerUri","type":"string"},{"name":"buyerUri","type":"string"},{"name":"platformAddr","type":"address"},{"name":"platformFee","type":"uint256"},{"name":"isBlindBox","type":"bool"},{"name":"createTime","type":"uint256"},{"name":"updateTime","type":"uint256"}],"name":"","type":"tuple"}],"stateMutability":"view","type":"function"}]`

// PasarV1ABI is the marketplace contract of the legacy deployment
const PasarV1ABI = `[{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":true,"name":"_tokenId","type":"uint256"},{"indexed":false,"name":"_amount","type":"uint256"},{"indexed":false,"name":"_price","type":"uint256"}],"name":"OrderForSale","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_oldPrice","type":"uint256"},{"indexed":false,"name":"_newPrice","type":"uint256"}],"name":"OrderPriceChanged","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_buyer","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"},{"indexed":false,"name":"_royaltyOwner","type":"address"},{"indexed":false,"name":"_price","type":"uint256"},{"indexed":false,"name":"_royalty","type":"uint256"}],"name":"OrderFilled","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_seller","type":"address"},{"indexed":true,"name":"_orderId","type":"uint256"}],"name":"OrderCanceled","type":"event"},{"inputs":[{"name":"_orderId","type":"uint256"}],"name":"getOrderById","outputs":[{"components":[{"name":"orderId","type":"uint256"},{"name":"orderType","type":"uint256"},{"name":"orderState","type":"uint256"},{"name":"tokenId","type":"uint256"},{"name":"amount","type":"uint256"},{"name":"price","type":"uint256"},{"name":"endTime","type":"uint256"},{"name":"sellerAddr","type":"address"},{"name":"buyerAddr","type":"address"},{"name":"bids","type":"uint256"},{"name":"lastBidder","type":"address"},{"name":"lastBid","type":"uint256"},{"name":"filled","type":"uint256"},{"name":"royaltyOwner","type":"address"},{"name":"royaltyFee","type":"uint256"},{"name":"createTime","type":"uint256"},{"name":"updateTime","type":"uint256"}],"name":"","type":"tuple"}],"stateMutability":"view","type":"function"}]`

// RegisterABI is the collection registry
const RegisterABI = `[{"anonymous":false,"inputs":[{"indexed":true,"name":"_token","type":"address"},{"indexed":true,"name":"_owner","type":"address"},{"indexed":false,"name":"_name","type":"string"},{"indexed":false,"name":"_uri","type":"string"}],"name":"TokenRegistered","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_token","type":"address"},{"indexed":false,"name":"_royaltyOwners","type":"address[]"},{"indexed":false,"name":"_royaltyRates","type":"uint256[]"}],"name":"TokenRoyaltyChanged","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"name":"_token","type":"address"},{"indexed":false,"name":"_name","type":"string"},{"indexed":false,"name":"_uri","type":"string"}],"name":"TokenInfoUpdated","type":"event"}]`

// ERC721ABI covers what is read from user-registered ERC-721 collections
const ERC721ABI = `[{"anonymous":false,"inputs":[{"indexed":true,"name":"_from","type":"address"},{"indexed":true,"name":"_to","type":"address"},{"indexed":true,"name":"_tokenId","type":"uint256"}],"name":"Transfer","type":"event"},{"inputs":[{"name":"_tokenId","type":"uint256"}],"name":"tokenURI","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},{"inputs":[{"name":"interfaceId","type":"bytes4"}],"name":"supportsInterface","outputs":[{"name":"","type":"bool"}],"stateMutability":"view","type":"function"},{"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"},{"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`

// ERC1155ABI covers what is read from user-registered ERC-1155 collections
const ERC1155ABI = `[{"anonymous":false,"inputs":[{"indexed":true,"name":"_operator","type":"address"},{"indexed":true,"name":"_from","type":"address"},{"indexed":true,"name":"_to","type":"address"},{"indexed":false,"name":"_id","type":"uint256"},{"indexed":false,"name":"_value","type":"uint256"}],"name":"TransferSingle","type":"event"},{"inputs":[{"name":"_id","type":"uint256"}],"name":"uri","outputs":[{"name":"","type":"string"}],"stateMutability":"view","type":"function"}]`

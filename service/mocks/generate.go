package mocks

//go:generate go run github.com/golang/mock/mockgen -destination=mock_asset_store.go -package=mocks kardly-server/service AssetStore,RemoteAssetStore

package network

const (
	MsgTypeHeartbeat = 1

	// 房间管理
	MsgTypeCreateGame = 101
	MsgTypeJoinGame   = 102
	MsgTypeWatchGame  = 103
	MsgTypeLeaveGame  = 104

	// 玩家指令 (move/rotate/drop/reset)
	MsgTypePlayerAction = 201

	// 服务器推送
	MsgTypeGameStart = 301
	MsgTypeGameSync  = 302
	MsgTypeGameOver  = 303
	MsgTypeError     = 401
)

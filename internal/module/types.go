package module

// ModuleRequest 创建或更新模块
type ModuleRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// DefaultPerPage 模块列表默认每页条数
const DefaultPerPage = 10

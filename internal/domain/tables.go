package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysUser{},
	// Catalog
	&Product{},
}

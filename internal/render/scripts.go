package render

// elementsScript collects visible interactive elements with their box and computed styles.
const elementsScript = `(() => {
	const interactive = 'a, button, input, select, textarea, [role="button"], [role="link"], [onclick]';
	const pathOf = (el) => {
		if (el.id) return '#' + el.id;
		if (el.className && typeof el.className === 'string') {
			const classes = el.className.trim().split(/\s+/).slice(0, 2).join('.');
			if (classes) return el.tagName.toLowerCase() + '.' + classes;
		}
		return el.tagName.toLowerCase();
	};
	return Array.from(document.querySelectorAll(interactive)).map((el) => {
		const rect = el.getBoundingClientRect();
		const styles = window.getComputedStyle(el);
		return {
			selector: pathOf(el),
			tag: el.tagName.toLowerCase(),
			text: (el.textContent || '').trim().substring(0, 100),
			role: el.getAttribute('role') || el.tagName.toLowerCase(),
			ariaLabel: el.getAttribute('aria-label') || '',
			bbox: {
				x: Math.round(rect.x + window.scrollX),
				y: Math.round(rect.y + window.scrollY),
				width: Math.round(rect.width),
				height: Math.round(rect.height)
			},
			styles: {
				color: styles.color,
				backgroundColor: styles.backgroundColor,
				fontSize: styles.fontSize,
				fontWeight: styles.fontWeight
			},
			href: el.href ? String(el.href) : '',
			type: el.type ? String(el.type) : ''
		};
	}).filter((el) => el.bbox.width > 0 && el.bbox.height > 0);
})()`

const pageInfoScript = `(() => ({
	title: document.title,
	url: window.location.href,
	lang: document.documentElement.lang || 'not specified',
	viewport: {
		width: window.innerWidth,
		height: window.innerHeight,
		scrollHeight: document.documentElement.scrollHeight
	}
}))()`
